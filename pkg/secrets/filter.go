package secrets

// Filter selects secrets by tag. A secret matches when it carries the Key
// tag and, if Values is not empty, the tag value is one of Values.
type Filter struct {
	Key    string   `mapstructure:"key"`
	Values []string `mapstructure:"values"`
}

func (f Filter) Matches(tags map[string]string) bool {
	value, ok := tags[f.Key]
	if !ok {
		return false
	}
	if len(f.Values) == 0 {
		return true
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// MatchesAll reports whether tags satisfy every filter.
func MatchesAll(filters []Filter, tags map[string]string) bool {
	for _, f := range filters {
		if !f.Matches(tags) {
			return false
		}
	}
	return true
}
