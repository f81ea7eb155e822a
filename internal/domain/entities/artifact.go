package entities

// ArtifactRef is a storage location: a bucket (namespace) and an object key.
type ArtifactRef struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

func (a ArtifactRef) String() string {
	return "s3://" + a.Namespace + "/" + a.Key
}
