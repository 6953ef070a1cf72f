package storage

import "errors"

// ErrNotConfigured is returned when MinIO is requested without an endpoint.
var ErrNotConfigured = errors.New("minio not configured")

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether an endpoint was provided.
func (c *MinIOConfig) Enabled() bool {
	return c != nil && c.Endpoint != ""
}
