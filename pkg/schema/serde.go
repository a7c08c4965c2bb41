// Package schema holds the Avro schema of catalog records and the serde
// that frames them in the schema registry wire format.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var ErrTooFewOpts = errors.New("too few options")

// A Serde encodes values into the schema registry wire format and back.
type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// A Registry stores schema text under a subject and hands out its id.
// Registering a known schema returns the existing id.
type Registry interface {
	RegisterSchema(ctx context.Context, subject, avroSchemaText string) (int, error)
}

type CatalogSerdeOpt func(*catalogSerdeOpts) error

type catalogSerdeOpts struct {
	subject  string
	registry Registry
}

// TopicOpt registers the schema as the value subject of topic.
func TopicOpt(topic string) CatalogSerdeOpt {
	return func(o *catalogSerdeOpts) error {
		if topic == "" {
			return errors.New("catalog topic is empty string")
		}
		o.subject = ValueSubject(topic)
		return nil
	}
}

func RegistryOpt(r Registry) CatalogSerdeOpt {
	return func(o *catalogSerdeOpts) error {
		if r == nil {
			return errors.New("schema registry is nil")
		}
		o.registry = r
		return nil
	}
}

// ValueSubject is the registry subject of record values in topic.
func ValueSubject(topic string) string {
	return topic + "-value"
}

// NewCatalogProductSerde registers [CatalogProductSchemaTextV1] and returns
// a serde of [CatalogProductV1] records framed with its registry id.
func NewCatalogProductSerde(ctx context.Context, opts ...CatalogSerdeOpt) (Serde, error) {
	const op = "NewCatalogProductSerde"

	if len(opts) != 2 {
		return nil, fmt.Errorf("%s: %w", op, ErrTooFewOpts)
	}

	var o catalogSerdeOpts
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	productSchema, err := avro.Parse(CatalogProductSchemaTextV1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := o.registry.RegisterSchema(ctx, o.subject, CatalogProductSchemaTextV1)
	if err != nil {
		return nil, fmt.Errorf("%s: subject %q: %w", op, o.subject, err)
	}

	s := new(sr.Serde)
	s.Register(
		id,
		CatalogProductV1{},
		sr.EncodeFn(func(v any) ([]byte, error) {
			return avro.Marshal(productSchema, v)
		}),
		sr.DecodeFn(func(data []byte, v any) error {
			return avro.Unmarshal(productSchema, data, v)
		}),
	)
	return s, nil
}
