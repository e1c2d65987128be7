// Package version provides centralized version information for Meridian client
// projects. This package supports independent versioning for the admin client
// library and the meridianctl CLI as separate projects within the repo,
// allowing them to evolve independently while maintaining consistency within
// each project's components.
// All versions follow semantic versioning (semver) conventions.
package version

// AdminClientVersion holds the current admin client library version.
// Used in the transport's User-Agent header so brokers can identify
// client generations in access logs.
// Format: major.minor.patch[-prerelease][+build]
const AdminClientVersion = "0.1.0-dev"

// MeridianctlVersion holds the current meridianctl CLI version.
// This is used by the CLI binary and allows independent evolution
// of the management tool separate from the client library.
// Format: major.minor.patch[-prerelease][+build]
const MeridianctlVersion = "0.1.0-dev"
