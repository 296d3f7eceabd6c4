// Package module defines what a feature module is to the host: a named set of
// capabilities, built by a Factory from a shared construction Context.
//
// Modules are independent of each other. The only collaborator they may share
// is the callback dispatcher, which reaches them through the Context rather
// than through a global lookup.
package module
