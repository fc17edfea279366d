// Package kernel holds the shared value objects of the order wizard domain:
// identifiers and the clock every time-based rule reads from.
package kernel
