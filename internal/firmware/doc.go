// Package firmware orchestrates the pybricksdev device flasher.
//
// Every operation follows the same shape: validate the payload, stage it in
// a request-scoped workspace, invoke the flasher with a bounded timeout, and
// classify the combined process output into an actionable failure category.
// Classification is an ordered, first-match-wins list of substring rules so
// each remediation message stays pinned to the tool wording that triggers it.
//
// Flash operations against the physical hub are serialized through a
// host-wide file lock; a second concurrent attempt fails immediately with a
// typed busy error instead of a confusing DFU-level failure.
package firmware
