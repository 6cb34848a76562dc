// Package opensearch creates clients for github.com/opensearch-project/opensearch-go/v2.
//
// New builds a client from Config (OPENSEARCH_* environment variables) and
// fails unless the cluster info endpoint answers. Healthcheck reuses the same
// probe for readiness checks.
package opensearch
