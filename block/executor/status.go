// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

// Status tracks a candidate block through the verification pipeline. A block
// either reaches Applied or stops at Rejected; there is no retry within the
// pipeline.
type Status uint8

const (
	Received Status = iota
	StructurallyChecked
	ProposerVerified
	TransactionsVerified
	Applied
	Rejected
)

func (s Status) String() string {
	switch s {
	case Received:
		return "Received"
	case StructurallyChecked:
		return "StructurallyChecked"
	case ProposerVerified:
		return "ProposerVerified"
	case TransactionsVerified:
		return "TransactionsVerified"
	case Applied:
		return "Applied"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}
