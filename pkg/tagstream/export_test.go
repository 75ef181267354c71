package tagstream

func OpenTag(id ScopeID) Tag {
	return Tag(-id)
}

func CloseTag(id ScopeID) Tag {
	return Tag(-id - 1)
}

// ColumnAt is the column at which the tag at index sits, counting every
// token up to and including index.
func (s TagStream) ColumnAt(index int) int {
	col := 0
	for i := 0; i <= index && i < len(s.Tags); i++ {
		col += s.Tags[i].Width()
	}
	return col
}
