// Package handler turns admin API requests into service calls and service
// results into projections.
//
// Every endpoint goes through Handle or HandleNoContent: bind and validate
// the request, call the service, project the result with a selector and
// write it as JSON.
package handler
