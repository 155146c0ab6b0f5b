// Arbiter is a business-rule decision service.
//
// It evaluates request contexts against groups of business rules and
// produces ALLOW, ESCALATE, or DENY decisions, recording every decision
// as an append-only chain of events and queueing escalations for human
// approval.
//
// Usage:
//
//	# Start server with the config.yaml in the working directory
//	arbiter run
//
//	# Start with a specific configuration file
//	arbiter run --config /path/to/config.yaml
//
//	# Show version information
//	arbiter version
//
//	# Validate rule group files
//	arbiter validate --dir ./rules
package main

func main() {
	Execute()
}
