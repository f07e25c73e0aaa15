package content

import "sort"

// AssetSet 资源引用集合，元素为外部托管资源的 URL
type AssetSet map[string]struct{}

// NewAssetSet 由若干 URL 构造集合
func NewAssetSet(refs ...string) AssetSet {
	s := make(AssetSet, len(refs))
	for _, ref := range refs {
		s.Add(ref)
	}
	return s
}

// Add 加入一个引用，空串忽略
func (s AssetSet) Add(ref string) {
	if ref == "" {
		return
	}
	s[ref] = struct{}{}
}

func (s AssetSet) Has(ref string) bool {
	_, ok := s[ref]
	return ok
}

func (s AssetSet) Len() int {
	return len(s)
}

// Difference 返回 s - other
func (s AssetSet) Difference(other AssetSet) AssetSet {
	out := make(AssetSet)
	for ref := range s {
		if !other.Has(ref) {
			out[ref] = struct{}{}
		}
	}
	return out
}

// Intersect 返回 s ∩ other
func (s AssetSet) Intersect(other AssetSet) AssetSet {
	out := make(AssetSet)
	for ref := range s {
		if other.Has(ref) {
			out[ref] = struct{}{}
		}
	}
	return out
}

func (s AssetSet) Equal(other AssetSet) bool {
	if len(s) != len(other) {
		return false
	}
	for ref := range s {
		if !other.Has(ref) {
			return false
		}
	}
	return true
}

// Sorted 返回排序后的切片，便于日志与稳定遍历
func (s AssetSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ref := range s {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}
