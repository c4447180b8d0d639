package suggestion

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
)

const promptText = `You are a gas optimization expert for NFT transfers on the Base blockchain.

Decide whether batching the pending transfers below into a single transaction would significantly reduce gas costs compared with sending one transaction per transfer.

User address: {{.UserAddress}}
Current gas price: {{gwei .CurrentGasPrice}} gwei
Pending transfers ({{len .PendingTransfers}}):
{{- range $i, $t := .PendingTransfers}}
{{inc $i}}. NFT contract: {{$t.ContractAddress}}, token ID: {{$t.TokenID}}, recipient: {{$t.ToAddress}}
{{- end}}

Weigh the per-transfer overhead of a batched transfer (larger calldata, one transaction) against the summed base cost of separate transactions at the given gas price.
Recommend batching only when the aggregate saving is significant. When you recommend batching, include estimatedGasSavings as the saving in gwei. Otherwise say that individual transfers are fine and leave estimatedGasSavings out.
Keep the suggestion concise and clear.
`

var promptTmpl = template.Must(template.New("gas_optimization").Funcs(template.FuncMap{
	"gwei": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"inc":  func(i int) int { return i + 1 },
}).Parse(promptText))

// RenderPrompt is deterministic: identical requests give identical prompts.
func RenderPrompt(req domain.OptimizationRequest) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
