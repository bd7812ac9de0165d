// Package kernel provides core domain primitives shared by the order model.
//
// The package includes:
//   - Amount: a non-negative decimal money value
//   - BatchID: the name of a group of synthetic orders and the order id prefix it implies
//   - Clock: the time source used to stamp lifecycle timestamps
//
// These primitives are immutable and safe for concurrent use.
package kernel
