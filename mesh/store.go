package mesh

// AutoIDStart is the first id handed out to virtual entities. Deck ids are
// assumed to stay well below it.
const AutoIDStart = 9999999

// IDAllocator hands out descending ids for virtual entities
type IDAllocator struct {
	next int
}

func NewIDAllocator(start int) *IDAllocator {
	return &IDAllocator{next: start}
}

// Next returns the current id and decrements the counter
func (a *IDAllocator) Next() int {
	id := a.next
	a.next--
	return id
}

// Peek returns the id the next call to Next will return
func (a *IDAllocator) Peek() int {
	return a.next
}

// IDIndex is the bidirectional id <-> position map behind a store. Positions are
// dense, zero based and never reused; the index never shrinks.
type IDIndex struct {
	kind         EntityKind
	positionByID map[int]int
	idByPosition []int
	auto         *IDAllocator
}

func NewIDIndex(kind EntityKind) *IDIndex {
	return &IDIndex{
		kind:         kind,
		positionByID: make(map[int]int),
		auto:         NewIDAllocator(AutoIDStart),
	}
}

// Register returns the position of id, appending a new slot when id is unknown
func (ix *IDIndex) Register(id int) (position int, created bool) {
	if pos, ok := ix.positionByID[id]; ok {
		return pos, false
	}
	position = len(ix.idByPosition)
	ix.idByPosition = append(ix.idByPosition, id)
	ix.positionByID[id] = position
	return position, true
}

// ReserveVirtual draws a fresh id from the descending counter and registers it.
// Ids already known to the index are skipped.
func (ix *IDIndex) ReserveVirtual() (id, position int) {
	for {
		id = ix.auto.Next()
		if _, taken := ix.positionByID[id]; !taken {
			break
		}
	}
	position, _ = ix.Register(id)
	return id, position
}

func (ix *IDIndex) FindPosition(id int) (int, error) {
	pos, ok := ix.positionByID[id]
	if !ok {
		return -1, &UnknownEntityError{Kind: ix.kind, ID: id}
	}
	return pos, nil
}

func (ix *IDIndex) FindID(position int) (int, error) {
	if position < 0 || position >= len(ix.idByPosition) {
		return 0, &UnknownEntityError{Kind: ix.kind, ID: position, ByPosition: true}
	}
	return ix.idByPosition[position], nil
}

func (ix *IDIndex) Contains(id int) bool {
	_, ok := ix.positionByID[id]
	return ok
}

func (ix *IDIndex) Len() int {
	return len(ix.idByPosition)
}
