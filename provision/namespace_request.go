package provision

const (
	KindProjectRequest = "ProjectRequest"
	APIVersionV1       = "v1"
)

// NamespaceRequest is the document sent to the platform to request a new
// project namespace.
type NamespaceRequest struct {
	Kind       string   `json:"kind"`
	APIVersion string   `json:"apiVersion"`
	Metadata   Metadata `json:"metadata"`
}

type Metadata struct {
	Name string `json:"name"`
}

// NewNamespaceRequest creates a ProjectRequest for a namespace with the given
// name.
func NewNamespaceRequest(name string) NamespaceRequest {
	return NamespaceRequest{
		Kind:       KindProjectRequest,
		APIVersion: APIVersionV1,
		Metadata:   Metadata{Name: name},
	}
}
