package buff

// Ledger is the ordered list of active records of one kind (buffs or
// debuffs) on one unit. Records are stored by value; callers never share a
// record with the ledger.
type Ledger struct {
	records []*Record
}

// Add inserts r, or merges it into the record with the same ID.
func (l *Ledger) Add(r Record) {
	if cur := l.find(r.ID); cur != nil {
		cur.merge(r)
		return
	}
	n := r.normalized()
	l.records = append(l.records, &n)
}

// Remove deletes the record with id. Returns true if it was present.
func (l *Ledger) Remove(id string) bool {
	for i, r := range l.records {
		if r.ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the record with id.
func (l *Ledger) Get(id string) (Record, bool) {
	if r := l.find(id); r != nil {
		return *r, true
	}
	return Record{}, false
}

func (l *Ledger) Has(id string) bool { return l.find(id) != nil }

func (l *Ledger) Len() int { return len(l.records) }

// All returns copies of every record in insertion order.
func (l *Ledger) All() []Record {
	out := make([]Record, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}
	return out
}

// Unlock clears the lock on every record that unlocks at p.
func (l *Ledger) Unlock(p Phase) {
	for _, r := range l.records {
		if r.Unlock == p {
			r.Locked = false
		}
	}
}

// Tick counts down every unlocked record that decays at p and drops the ones
// that run out. It reports whether anything was removed.
func (l *Ledger) Tick(p Phase) bool {
	kept := l.records[:0]
	removed := false
	for _, r := range l.records {
		if r.Decay == p && !r.Locked {
			r.Turns--
			if r.Turns <= 0 {
				removed = true
				continue
			}
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(l.records); i++ {
		l.records[i] = nil
	}
	l.records = kept
	return removed
}

func (l *Ledger) find(id string) *Record {
	for _, r := range l.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}
