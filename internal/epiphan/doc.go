// Package epiphan implements the HTTP status client for Epiphan Pearl
// capture hardware, speaking the device's admin CGI protocol.
package epiphan
