package listview

func paginate[T any](matched []T, page, size int) Result[T] {
	n := len(matched)
	if size <= 0 {
		return Result[T]{Items: matched, Filtered: n, Page: 1, PageSize: n, Pages: 1}
	}

	pages := (n + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := min((page-1)*size, n)
	end := min(start+size, n)
	return Result[T]{
		Items:    matched[start:end],
		Filtered: n,
		Page:     page,
		PageSize: size,
		Pages:    pages,
	}
}
