// Package narrative holds the fixed demo data shown alongside each stage of
// the walkthrough. Nothing here is computed; the figures are the ones the
// story is told with.
package narrative

// Transaction is one transfer in the demo ledger.
type Transaction struct {
	ID     string `json:"id"`
	Time   string `json:"time"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Status string `json:"status,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Account is a node in the transaction network.
type Account struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Transfers int    `json:"transfers"`
	Flagged   bool   `json:"flagged"`
}

// Edge is a transfer between two accounts.
type Edge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Value      int64  `json:"value"`
	Suspicious bool   `json:"suspicious,omitempty"`
}

// VQEResult is the outcome of the variational eigensolver step.
type VQEResult struct {
	Energy         float64            `json:"energy"`
	Probabilities  map[string]float64 `json:"probabilities"`
	Verdict        string             `json:"verdict"`
	Confidence     string             `json:"confidence"`
	Recommendation string             `json:"recommendation"`
}

// Demo bundles every figure used by the walkthrough.
type Demo struct {
	History            []Transaction `json:"history"`
	Suspicious         Transaction   `json:"suspicious"`
	FraudRing          []Transaction `json:"fraud_ring"`
	Accounts           []Account     `json:"accounts"`
	Edges              []Edge        `json:"edges"`
	PerturbationVector []float64     `json:"perturbation_vector"`
	PCAVector          []float64     `json:"pca_vector"`
	QuantumVector      []float64     `json:"quantum_vector"`
	Hamiltonian        string        `json:"hamiltonian"`
	VQE                VQEResult     `json:"vqe"`
}

// Default returns a fresh copy of the demo data set.
func Default() Demo {
	return Demo{
		History: []Transaction{
			{ID: "TX-0992", Time: "09:15 AM", From: "C11475", To: "C88234", Amount: 850, Status: "Normal"},
			{ID: "TX-0993", Time: "09:32 AM", From: "C77391", To: "C11475", Amount: 1200, Status: "Normal"},
			{ID: "TX-0994", Time: "10:41 AM", From: "C11475", To: "C55123", Amount: 2300, Status: "Normal"},
			{ID: "TX-0995", Time: "11:03 AM", From: "C44567", To: "C11475", Amount: 750, Status: "Normal"},
			{ID: "TX-0996", Time: "11:28 AM", From: "C11475", To: "C33891", Amount: 1450, Status: "Normal"},
			{ID: "TX-0997", Time: "11:45 AM", From: "C22445", To: "C11475", Amount: 980, Status: "Normal"},
			{ID: "TX-0998", Time: "12:01 PM", From: "C11475", To: "C66778", Amount: 1750, Status: "Normal"},
			{ID: "TX-0999", Time: "12:02 PM", From: "C11475", To: "C77889", Amount: 320, Status: "Normal"},
			{ID: "TX-1000", Time: "12:03 PM", From: "C11475", To: "C99882", Amount: 5000, Status: "Normal"},
		},
		Suspicious: Transaction{
			ID: "TX-1001", Time: "12:03 PM", From: "C11475", To: "C99882", Amount: 5000,
			Note: "Selected for analysis",
		},
		FraudRing: []Transaction{
			{ID: "TX-1001", Time: "12:03 PM", From: "C11475", To: "C99882", Amount: 5000},
			{ID: "TX-1002", Time: "12:04 PM", From: "C99882", To: "C44391", Amount: 4800},
			{ID: "TX-1003", Time: "12:05 PM", From: "C44391", To: "C77234", Amount: 4600},
			{ID: "TX-1004", Time: "12:06 PM", From: "C77234", To: "C88445", Amount: 4400},
		},
		Accounts: []Account{
			{ID: "C11475", Label: "Primary Account", Transfers: 8},
			{ID: "C88234", Label: "Regular", Transfers: 3},
			{ID: "C77391", Label: "Regular", Transfers: 4},
			{ID: "C55123", Label: "Regular", Transfers: 2},
			{ID: "C44567", Label: "Regular", Transfers: 3},
			{ID: "C33891", Label: "Regular", Transfers: 2},
			{ID: "C22445", Label: "Regular", Transfers: 1},
			{ID: "C66778", Label: "Regular", Transfers: 1},
			{ID: "C77889", Label: "Regular", Transfers: 1},
			{ID: "C99882", Label: "Suspicious", Transfers: 1, Flagged: true},
			{ID: "C44391", Label: "Suspicious", Transfers: 1, Flagged: true},
			{ID: "C77234", Label: "Suspicious", Transfers: 1, Flagged: true},
			{ID: "C88445", Label: "Suspicious", Transfers: 1, Flagged: true},
		},
		Edges: []Edge{
			{Source: "C11475", Target: "C88234", Value: 850},
			{Source: "C77391", Target: "C11475", Value: 1200},
			{Source: "C11475", Target: "C55123", Value: 2300},
			{Source: "C44567", Target: "C11475", Value: 750},
			{Source: "C11475", Target: "C33891", Value: 1450},
			{Source: "C22445", Target: "C11475", Value: 980},
			{Source: "C11475", Target: "C66778", Value: 1750},
			{Source: "C11475", Target: "C77889", Value: 320},
			{Source: "C11475", Target: "C99882", Value: 5000, Suspicious: true},
			{Source: "C99882", Target: "C44391", Value: 4800, Suspicious: true},
			{Source: "C44391", Target: "C77234", Value: 4600, Suspicious: true},
			{Source: "C77234", Target: "C88445", Value: 4400, Suspicious: true},
		},
		PerturbationVector: []float64{0.12, -0.07, 0.04, 0.20, -0.01, 0.05, 0.09, -0.02, 0.03, 0.11, -0.06, 0.02, 0.00, 0.08, 0.06, -0.03},
		PCAVector:          []float64{0.21, -0.05, 0.12, 0.03},
		QuantumVector:      []float64{0.15375345, 0.03578131},
		Hamiltonian:        "H = 0.1538 * ZI + 0.0358 * IZ",
		VQE: VQEResult{
			Energy:         -0.1744,
			Probabilities:  map[string]float64{"01": 0.7959, "00": 0.2041},
			Verdict:        "Moderate Risk — Verify",
			Confidence:     "79.59%",
			Recommendation: "Manual review, request OTP",
		},
	}
}

// FlaggedAccounts returns the accounts marked suspicious.
func (d Demo) FlaggedAccounts() []Account {
	var out []Account
	for _, a := range d.Accounts {
		if a.Flagged {
			out = append(out, a)
		}
	}
	return out
}

// RingTotal is the sum moved through the fraud ring.
func (d Demo) RingTotal() int64 {
	var total int64
	for _, tx := range d.FraudRing {
		total += tx.Amount
	}
	return total
}
