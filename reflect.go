// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package shatb

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
type Updater interface {
	Update(*Circuit)
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// field name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Pins must be of type int and buses arrays of int. They are set to the pin
// numbers allocated when the part is mounted.
//
// If t is a non-nil pointer, the value it points to is used as a template for
// every mounted instance: untagged fields (like a rotation amount) keep their
// value.
func MakePart(t Updater) *PartSpec {
	v := reflect.ValueOf(t)
	typ := v.Type()
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		if v.IsNil() {
			v = reflect.Value{}
		} else {
			v = v.Elem()
		}
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}
	if !reflect.PtrTo(typ).Implements(reflect.TypeOf((*Updater)(nil)).Elem()) {
		panic(errors.Errorf("*%s does not implement Updater", typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	pins := fieldPins(typ)
	for _, p := range pins {
		var names []string
		if p.bus < 0 {
			names = []string{p.name}
		} else {
			for i := 0; i < p.bus; i++ {
				names = append(names, busPinName(p.name, i))
			}
		}
		if p.input {
			sp.Inputs = append(sp.Inputs, names...)
		} else {
			sp.Outputs = append(sp.Outputs, names...)
		}
	}
	sp.Mount = mountPart(typ, v, pins)
	return sp
}

type fieldPin struct {
	field int
	name  string
	input bool
	bus   int // bus width, -1 for single pins
}

func fieldPins(typ reflect.Type) []fieldPin {
	var pins []fieldPin
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		p := fieldPin{field: i, name: strings.ToLower(f.Name), bus: -1}
		tv := strings.Split(tag, ",")
		if len(tv) > 2 {
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}
		if len(tv) == 2 && tv[1] != "" {
			p.name = tv[1]
		}
		switch tv[0] {
		case "in":
			p.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}

		ft := f.Type
		switch k := ft.Kind(); {
		case k == reflect.Array && ft.Elem().Kind() == reflect.Int:
			p.bus = ft.Len()
		case k == reflect.Int:
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
		pins = append(pins, p)
	}
	return pins
}

func mountPart(typ reflect.Type, tmpl reflect.Value, pins []fieldPin) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		if tmpl.IsValid() {
			e.Set(tmpl)
		}
		for _, p := range pins {
			fv := e.Field(p.field)
			if p.bus < 0 {
				fv.SetInt(int64(s.Pin(p.name)))
				continue
			}
			for i := 0; i < p.bus; i++ {
				fv.Index(i).SetInt(int64(s.Pin(busPinName(p.name, i))))
			}
		}
		comp := v.Interface().(Updater)
		return []Component{comp.Update}
	}
}
