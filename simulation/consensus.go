package simulation

import "github.com/sirupsen/logrus"

// Verdict is the network wide outcome of a majority vote over replica
// validity.
type Verdict string

const (
	IntegrityMaintained Verdict = "integrity maintained"
	MajorityCompromised Verdict = "majority compromised"
)

// Classify returns MajorityCompromised when invalid replicas outnumber valid
// ones. This is a plain head count, not fork choice or stake weighting.
func Classify(valid, invalid int) Verdict {
	if invalid > valid {
		return MajorityCompromised
	}
	return IntegrityMaintained
}

// ReplicaStatus is the validation outcome of a single replica.
type ReplicaStatus struct {
	Replica     int    `json:"replica"`
	ID          string `json:"id"`
	Length      int    `json:"length"`
	MerkleRoot  string `json:"merkle_root"`
	LatestHash  string `json:"latest_hash"`
	Valid       bool   `json:"valid"`
	FailedIndex int    `json:"failed_index"`
	Failure     string `json:"failure,omitempty"`
}

type ConsensusReport struct {
	Replicas []ReplicaStatus `json:"replicas"`
	Valid    int             `json:"valid"`
	Invalid  int             `json:"invalid"`
	Verdict  Verdict         `json:"verdict"`
}

type RejectionReport struct {
	Accepted []int   `json:"accepted"`
	Rejected []int   `json:"rejected"`
	Verdict  Verdict `json:"verdict"`
}

func (r ConsensusReport) Compromised() bool {
	return r.Verdict == MajorityCompromised
}

func (r RejectionReport) Compromised() bool {
	return r.Verdict == MajorityCompromised
}

// ConsensusReport validates every replica and tallies the results. The
// report is also published to SubscribeReports subscribers.
func (n *Network) ConsensusReport() ConsensusReport {
	report := n.Tally()

	n.log.WithFields(logrus.Fields{
		"valid":   report.Valid,
		"invalid": report.Invalid,
		"verdict": report.Verdict,
	}).Info("Consensus checked")
	n.reportFeed.Send(report)
	return report
}

// Tally validates every replica and counts the results without publishing
// anything.
func (n *Network) Tally() ConsensusReport {
	report := ConsensusReport{Replicas: n.survey()}
	for _, s := range report.Replicas {
		if s.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
	}
	report.Verdict = Classify(report.Valid, report.Invalid)
	return report
}

// RejectInvalid splits the replicas into those the network accepts and those
// it rejects for failing validation.
func (n *Network) RejectInvalid() RejectionReport {
	report := RejectionReport{
		Accepted: []int{},
		Rejected: []int{},
	}
	for _, s := range n.survey() {
		if s.Valid {
			report.Accepted = append(report.Accepted, s.Replica)
		} else {
			report.Rejected = append(report.Rejected, s.Replica)
		}
	}
	report.Verdict = Classify(len(report.Accepted), len(report.Rejected))

	n.log.WithFields(logrus.Fields{
		"accepted": len(report.Accepted),
		"rejected": len(report.Rejected),
		"verdict":  report.Verdict,
	}).Info("Invalid replicas rejected")
	return report
}

func (n *Network) survey() []ReplicaStatus {
	statuses := make([]ReplicaStatus, len(n.replicas))
	for i, r := range n.replicas {
		sum := r.Chain.Summary()
		statuses[i] = ReplicaStatus{
			Replica:     i,
			ID:          r.ID,
			Length:      sum.Length,
			MerkleRoot:  sum.MerkleRoot,
			LatestHash:  sum.LatestHash,
			Valid:       sum.Valid,
			FailedIndex: sum.FailedIndex,
			Failure:     sum.Failure,
		}
	}
	return statuses
}
