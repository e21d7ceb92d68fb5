package signal

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeNone          = Type(0)
	TypeHue           = Type(1)
	TypeHomeassistant = Type(2)

	TypeDefault = TypeNone
)

var (
	AllTypes = Types{
		TypeNone,
		TypeHue,
		TypeHomeassistant,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "none", "":
		*this = TypeNone
		return nil
	case "hue":
		*this = TypeHue
		return nil
	case "homeassistant", "home-assistant", "ha":
		*this = TypeHomeassistant
		return nil
	default:
		return fmt.Errorf("illegal-signal-type: %s", plain)
	}
}

func (this Type) String() string {
	switch this {
	case TypeNone:
		return "none"
	case TypeHue:
		return "hue"
	case TypeHomeassistant:
		return "homeassistant"
	default:
		return fmt.Sprintf("illegal-signal-type-%d", this)
	}
}

func (this Type) MarshalText() (text []byte, err error) {
	switch this {
	case TypeNone, TypeHue, TypeHomeassistant:
		return []byte(this.String()), nil
	default:
		return nil, fmt.Errorf("illegal signal type: %d", this)
	}
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}
