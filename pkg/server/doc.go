// Package server exposes the sgviz pipeline as an HTTP service.
//
// # Endpoints
//
//	GET  /healthz                 build info and liveness
//	GET  /metrics                 Prometheus metrics (when configured)
//	POST /api/v1/layouts?type=    graph body → layout JSON
//	POST /api/v1/render?type=&format=
//	                              graph body → rendered artifact
//
// Request bodies are entity graphs or EC2 DescribeSecurityGroups exports,
// as JSON or (with a YAML content type) YAML. Query parameters override
// the server defaults: width, height, repulsion, link_distance, ticks,
// seed, beta, radius_margin, detailed, interactive, tooltips and scale.
//
// # Errors
//
// Failures are returned as [ErrorResponse] JSON. Error codes map to
// status codes: invalid input, format or viz type → 400; invalid graphs,
// references, security groups and unsupported combinations → 422;
// missing sources → 404; everything else → 500 with the detail logged
// rather than returned.
//
// Every response carries an X-Request-ID header, echoing the caller's
// value when one was sent.
package server
