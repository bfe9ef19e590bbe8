package search

// Paginate derives page metadata for req from what was collected.
func Paginate(res Collection, req Request) Pagination {
	size := req.PageSize
	if size < 1 {
		size = 1
	}
	offset := max(req.Offset, 0)
	current := offset/size + 1

	p := Pagination{
		StartIndex:    offset,
		ItemsPerPage:  size,
		CurrentPage:   current,
		APITotalItems: res.UpstreamReportedTotal,
	}

	if len(res.Items) == 0 {
		p.IsLastPage = true
		if current == 1 {
			return p
		}
		// walked past the last page: everything before offset existed
		p.TotalItems = offset
		p.TotalPages = current - 1
		p.HasPrev = true
		p.EndOfResults = true
		return p
	}

	p.TotalItems = res.EffectiveTotal
	p.TotalPages = max((res.EffectiveTotal+size-1)/size, 1)
	p.HasNext = len(res.Items) == size && offset+size < res.EffectiveTotal
	p.HasPrev = current > 1
	p.IsLastPage = !p.HasNext
	return p
}
