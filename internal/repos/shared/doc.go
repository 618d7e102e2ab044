// Package shared declares the collaborator contracts used across repository scanning packages.
package shared
