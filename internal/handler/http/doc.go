// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware for the banking
// sync API: generic collection CRUD, the banking read models, system
// settings, and Server-Sent Events streams backed by store listeners.
// Request tracing, access logging and response compression are handled here
// before requests are delegated to the service layer.
package http
