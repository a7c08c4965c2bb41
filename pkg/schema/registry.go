package schema

import (
	"context"

	"github.com/twmb/franz-go/pkg/sr"
)

var _ Registry = (*RegistryClient)(nil)

// RegistryClient registers Avro schemas over the schema registry API.
type RegistryClient struct {
	cl *sr.Client
}

func NewRegistryClient(cl *sr.Client) RegistryClient {
	return RegistryClient{cl}
}

func (r RegistryClient) RegisterSchema(
	ctx context.Context, subject, avroSchemaText string,
) (int, error) {
	schema := sr.Schema{Schema: avroSchemaText, Type: sr.TypeAvro}
	// -1 lets the registry pick the id and version
	return r.cl.RegisterSchema(ctx, subject, schema, -1, -1)
}
