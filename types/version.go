package types

// Version is the canonical project version.
// All components share a single version (lockstep versioning).
const Version = "0.1.0"
