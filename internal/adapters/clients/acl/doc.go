// Package acl translates the upstream creature catalog into domain types.
//
// Upstream payloads are decoded into unexported DTOs and flattened here, so
// nothing outside this package sees PokeAPI's nested sprite or stat layout.
// Every failure leaves as a [domain.AppError] built by [Normalize]:
//
//   - transport failures (DNS, refused, timeout, open circuit) carry the
//     step's default status, 503
//   - non-2xx replies forward their status code and status text
//   - anything else, including an undecodable payload, falls back to the
//     step's message with the default status
package acl
