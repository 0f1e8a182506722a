package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Provider renders display lines for stage ids.
type Provider struct {
	demo    Demo
	renders map[string]func(Demo) []string
}

// New returns a provider over the default demo data.
func New() *Provider {
	return NewWith(Default())
}

// NewWith returns a provider over d.
func NewWith(d Demo) *Provider {
	p := &Provider{demo: d}
	p.renders = map[string]func(Demo) []string{
		// pages
		"landing":      landingLines,
		"history":      historyLines,
		"network":      networkLines,
		"fraud-ring":   fraudRingLines,
		"perturbation": perturbationLines,
		"pca":          pcaLines,
		"quantum":      quantumLines,
		"hamiltonian":  hamiltonianLines,
		"vqe":          vqeLines,
		"forecast":     forecastLines,

		// wizard
		"data-input":        dataInputLines,
		"transaction-graph": networkLines,
		"gnn-embeddings":    perturbationLines,
		"pca-reduction":     pcaLines,
		"qcl-circuit":       circuitLines,
		"quantum-vector":    quantumLines,
		"vqe-optimization":  vqeLines,
		"risk-verdict":      forecastLines,
	}
	return p
}

// Demo returns the data the provider renders.
func (p *Provider) Demo() Demo {
	return p.demo
}

// Has reports whether stageID has dedicated lines.
func (p *Provider) Has(stageID string) bool {
	_, ok := p.renders[stageID]
	return ok
}

// Lines returns the display lines for stageID. Unknown ids get a single
// placeholder line.
func (p *Provider) Lines(stageID string) []string {
	render, ok := p.renders[stageID]
	if !ok {
		return []string{fmt.Sprintf("No narrative for stage %q.", stageID)}
	}
	return render(p.demo)
}

func money(amount int64) string {
	return "$" + humanize.Comma(amount)
}

func vector(values []float64, precision int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.*f", precision, v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func transfer(tx Transaction) string {
	return fmt.Sprintf("%s  %s  %s -> %s  %s", tx.ID, tx.Time, tx.From, tx.To, money(tx.Amount))
}

func landingLines(d Demo) []string {
	return []string{
		"Project Foresight: quantum-assisted fraud forecasting.",
		fmt.Sprintf("%d recent transfers involve account %s.", len(d.History), d.Suspicious.From),
		fmt.Sprintf("One of them, %s for %s, is about to be examined.", d.Suspicious.ID, money(d.Suspicious.Amount)),
	}
}

func historyLines(d Demo) []string {
	lines := []string{"Baseline transaction history:"}
	for _, tx := range d.History {
		lines = append(lines, "  "+transfer(tx)+"  "+tx.Status)
	}
	lines = append(lines, fmt.Sprintf("Flagged: %s %s -> %s %s at %s (%s).",
		d.Suspicious.ID, d.Suspicious.From, d.Suspicious.To, money(d.Suspicious.Amount), d.Suspicious.Time, d.Suspicious.Note))
	return lines
}

func dataInputLines(d Demo) []string {
	lines := []string{"Ingesting transaction data:"}
	for _, tx := range d.History[len(d.History)-3:] {
		lines = append(lines, "  "+transfer(tx))
	}
	lines = append(lines, fmt.Sprintf("Under review: %s (%s).", d.Suspicious.ID, money(d.Suspicious.Amount)))
	return lines
}

func networkLines(d Demo) []string {
	flagged := d.FlaggedAccounts()
	ids := make([]string, len(flagged))
	for i, a := range flagged {
		ids[i] = a.ID
	}
	return []string{
		fmt.Sprintf("Transaction graph: %d accounts, %d transfers.", len(d.Accounts), len(d.Edges)),
		fmt.Sprintf("GNN flags %d accounts: %s.", len(flagged), strings.Join(ids, ", ")),
	}
}

func fraudRingLines(d Demo) []string {
	lines := []string{"Coordinated transfer chain detected:"}
	for _, tx := range d.FraudRing {
		lines = append(lines, "  "+transfer(tx))
	}
	lines = append(lines, fmt.Sprintf("%s moved through %d hops in %d minutes.",
		money(d.RingTotal()), len(d.FraudRing), len(d.FraudRing)-1))
	return lines
}

func perturbationLines(d Demo) []string {
	return []string{
		"16-D perturbation vector from the GNN embedding:",
		"  " + vector(d.PerturbationVector, 2),
	}
}

func pcaLines(d Demo) []string {
	return []string{
		fmt.Sprintf("PCA reduces %d dimensions to %d:", len(d.PerturbationVector), len(d.PCAVector)),
		"  " + vector(d.PCAVector, 2),
	}
}

func circuitLines(d Demo) []string {
	return []string{
		"Quantum circuit learning encodes the reduced vector on two qubits.",
		fmt.Sprintf("  input %s", vector(d.PCAVector, 2)),
	}
}

func quantumLines(d Demo) []string {
	return []string{
		"Quantum-enhanced 2-D feature vector:",
		"  " + vector(d.QuantumVector, 4),
	}
}

func hamiltonianLines(d Demo) []string {
	return []string{
		"Risk Hamiltonian:",
		"  " + d.Hamiltonian,
	}
}

func vqeLines(d Demo) []string {
	lines := []string{fmt.Sprintf("VQE ground-state energy: %.4f", d.VQE.Energy)}
	states := make([]string, 0, len(d.VQE.Probabilities))
	for state := range d.VQE.Probabilities {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return d.VQE.Probabilities[states[i]] > d.VQE.Probabilities[states[j]]
	})
	for _, state := range states {
		lines = append(lines, fmt.Sprintf("  |%s>  %.4f", state, d.VQE.Probabilities[state]))
	}
	return lines
}

func forecastLines(d Demo) []string {
	return []string{
		"Verdict: " + d.VQE.Verdict,
		"Confidence: " + d.VQE.Confidence,
		"Recommendation: " + d.VQE.Recommendation,
	}
}
