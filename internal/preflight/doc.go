// Package preflight runs startup checks so broken environments surface at
// serve time instead of on the first user request.
package preflight
