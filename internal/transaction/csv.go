package transaction

import (
	"strconv"
	"strings"
)

const (
	listCSVHeader   = "transaction_id,timestamp,total_amount\n"
	detailCSVHeader = "product_id,quantity,price_at_sale\n"
)

// ListCSV writes one row per transaction with the timestamp quoted.
func ListCSV(txs []*Transaction) string {
	var sb strings.Builder

	sb.WriteString(listCSVHeader)

	for _, tx := range txs {
		sb.WriteString(strconv.FormatInt(tx.ID, 10))
		sb.WriteString(`,"`)
		sb.WriteString(tx.Timestamp)
		sb.WriteString(`",`)
		sb.WriteString(tx.TotalAmount.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

// ExportDetailCSV writes the receipt of a single transaction, one row per item.
func ExportDetailCSV(tx *Transaction) string {
	var sb strings.Builder

	sb.WriteString(detailCSVHeader)

	for _, item := range tx.Items {
		sb.WriteString(strconv.FormatInt(item.ProductID, 10))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(item.Quantity))
		sb.WriteByte(',')
		sb.WriteString(item.PriceAtSale.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
