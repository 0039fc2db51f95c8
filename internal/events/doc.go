// Package events provides types and interfaces for an event-driven architecture.
//
// Services emit events without knowing which handlers will process them,
// which keeps the service layer free of a dependency on the task runner.
//
// The primary components are:
// - TaskRequestEvent: Represents a request to create a background task
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
