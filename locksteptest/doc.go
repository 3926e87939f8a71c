// Package locksteptest provides mocked implementations and helpers
// shared by tests across the repository.
package locksteptest
