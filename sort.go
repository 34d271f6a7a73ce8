package datatables

// buildOrders scans the order[j] groups and emits the sort token sequence.
// Entries with a direction other than asc/desc, referencing a non-orderable
// column, or resolving to an unmapped or computed field are dropped. The
// final sequence is ordered by the explicit order index.
func buildOrders(cols Columns, req *request) []string {
	tokens := []string{}
	for _, j := range req.orderIndexes() {
		ord := req.Orders[j]
		if !ord.HasColumn {
			continue
		}
		if ord.Dir != "asc" && ord.Dir != "desc" {
			continue
		}

		col, has := req.Columns[ord.Column]
		if !has || !col.Orderable {
			continue
		}

		mapping, ok := cols.resolve(col.UIName())
		if !ok || mapping.Computed() {
			continue
		}

		token := mapping.token()
		if ord.Dir == "desc" {
			token = DescPrefix + token
		}
		tokens = append(tokens, token)
	}
	return tokens
}
