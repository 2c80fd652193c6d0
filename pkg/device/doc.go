// Package device defines the data model shared by every layer of the
// pool: device variants, the allocation and runtime state enums, serial
// validation, and the free disposition.
package device
