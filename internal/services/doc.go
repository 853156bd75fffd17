// Package services holds the application services behind the HTTP
// handlers: pipeline run coordination and health reporting.
package services
