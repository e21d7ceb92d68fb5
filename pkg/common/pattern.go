package common

import (
	"fmt"
	"regexp"
)

func MustNewPattern(plain string) Pattern {
	var result Pattern
	if err := result.Set(plain); err != nil {
		panic(err)
	}
	return result
}

// Pattern is a regular expression that can be used as flag value and as
// YAML scalar. The zero value matches nothing.
type Pattern struct {
	v *regexp.Regexp
}

func (this *Pattern) Set(plain string) error {
	if plain == "" {
		*this = Pattern{}
		return nil
	}
	v, err := regexp.Compile(plain)
	if err != nil {
		return fmt.Errorf("illegal-pattern: %s", plain)
	}
	*this = Pattern{v}
	return nil
}

func (this Pattern) String() string {
	if v := this.v; v != nil {
		return v.String()
	}
	return ""
}

func (this Pattern) MatchString(s string) bool {
	if v := this.v; v != nil {
		return v.MatchString(s)
	}
	return false
}

func (this Pattern) MarshalText() ([]byte, error) {
	return []byte(this.String()), nil
}

func (this *Pattern) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

func (this Pattern) IsZero() bool {
	return this.v == nil
}
