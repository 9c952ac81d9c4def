package aggregator

// Tag is an explicit type discriminator carried by a payload.
type Tag string

// Tagged is implemented by payloads that can be dispatched by type tag.
type Tagged interface {
	Tag() Tag
}

type selectorKind int

const (
	kindName selectorKind = iota + 1
	kindTag
)

// Selector targets either an event name or a payload type tag.
// The zero Selector is invalid.
type Selector struct {
	kind selectorKind
	name string
	tag  Tag
}

func ByName(name string) Selector {
	return Selector{kind: kindName, name: name}
}

func ByTag(tag Tag) Selector {
	return Selector{kind: kindTag, tag: tag}
}

func (s Selector) IsName() bool { return s.kind == kindName }

func (s Selector) IsTag() bool { return s.kind == kindTag }

func (s Selector) Name() string { return s.name }

func (s Selector) Tag() Tag { return s.tag }

func (s Selector) valid() bool {
	switch s.kind {
	case kindName:
		return s.name != ""
	case kindTag:
		return s.tag != ""
	default:
		return false
	}
}

func (s Selector) String() string {
	switch s.kind {
	case kindName:
		return "name:" + s.name
	case kindTag:
		return "tag:" + string(s.tag)
	default:
		return "invalid"
	}
}
