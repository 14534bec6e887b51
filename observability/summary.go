package observability

import (
	"exchange-lab/domain"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// RenderSummary writes one row per peer present in result.
func RenderSummary(w io.Writer, result domain.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Role", "Sent", "Received", "Outcome"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, stats := range []*domain.PeerStats{result.Initiator, result.Receiver} {
		if stats == nil {
			continue
		}
		table.Append([]string{
			stats.Role.String(),
			strconv.Itoa(stats.SentCount),
			strconv.Itoa(stats.ReceivedCount),
			result.Outcomes[stats.Role],
		})
	}
	table.Render()
}
