package typeref

// Version is the semantic version of the typeref tool.
// Overridden at release time via -ldflags "-X typeref.Version=...".
var Version = "0.1.0-dev"
