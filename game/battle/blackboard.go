package battle

// Message is one blackboard entry: an action or a command as executed.
// DMG messages carry resolved hits, Heal and Consume HP carry actual amounts,
// Debuff carries only successful applications, Gain SP the actual gain.
type Message struct {
	Action  *Action
	Command *Command

	acked map[string]struct{}
}

// Ack marks the message as handled by name. It returns false if name had
// already acknowledged it.
func (m *Message) Ack(name string) bool {
	if m.acked == nil {
		m.acked = make(map[string]struct{})
	}
	if _, ok := m.acked[name]; ok {
		return false
	}
	m.acked[name] = struct{}{}
	return true
}

func (m *Message) Acked(name string) bool {
	_, ok := m.acked[name]
	return ok
}

// Blackboard is the ordered per-turn log of executed actions and commands.
type Blackboard struct {
	messages []*Message
}

func (b *Blackboard) PostAction(a Action) *Message {
	m := &Message{Action: &a}
	b.messages = append(b.messages, m)
	return m
}

func (b *Blackboard) PostCommand(c Command) *Message {
	m := &Message{Command: &c}
	b.messages = append(b.messages, m)
	return m
}

// Messages returns the log in posting order.
func (b *Blackboard) Messages() []*Message { return b.messages }

func (b *Blackboard) Len() int { return len(b.messages) }

func (b *Blackboard) Clear() { b.messages = nil }
