// Package core defines the conversation data model shared by every other
// package: immutable messages, tool call requests/results and the ambient
// caller identity propagated through a request's context.
package core
