// Package config loads typed configuration structs from environment
// variables, with optional .env file support for development. Loading is
// explicit: call Load once at startup and pass the resulting values to
// the components that need them.
package config
