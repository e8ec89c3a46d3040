package types

// Version is the steward console version.
var Version = "0.4.0"
