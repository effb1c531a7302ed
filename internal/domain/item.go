package domain

// Field is one named piece of item metadata, kept in source order.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Record is a raw time-stamped event as delivered by a data source.
type Record struct {
	Lane   []string
	Kind   KindTag
	Start  Timestamp
	Stop   Timestamp
	Label  string
	Color  ColorTag
	Fields []Field
}

// Item is an ingested, immutable time interval.
type Item struct {
	Interval
	Label  string
	Color  ColorTag
	Fields []Field
	Seq    int
}

func (item Item) Field(name string) (string, bool) {
	for _, field := range item.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}
