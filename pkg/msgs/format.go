package msgs

import (
	"fmt"
	"reflect"

	"github.com/golang/protobuf/jsonpb"

	fx "github.com/robotalks/mwatch.go/pkg/framework"
)

var jsonMarshaler = jsonpb.Marshaler{OrigName: true}

// Format prints msg on one line, as JSON when asJSON is set.
func Format(msg fx.Message, asJSON bool) string {
	m, ok := msg.(SerializableMessage)
	if !ok {
		return fmt.Sprintf("%#v", msg)
	}
	if asJSON {
		out, err := jsonMarshaler.MarshalToString(m.Serializable())
		if err != nil {
			return err.Error()
		}
		return out
	}
	return fmt.Sprintf("%s %s",
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		m.Serializable().String())
}
