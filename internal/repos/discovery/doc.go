// Package discovery walks directory trees and identifies repository metadata markers.
package discovery
