package pkg

import (
	"strconv"
	"strings"
)

// Page 一页数据，页码从 1 开始
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

// ResolvePage 解析页码：非数字或缺省回到第 1 页，越界（含 <1）落到最后一页
func ResolvePage(raw string, count, perPage int) (number, numPages int) {
	if perPage <= 0 {
		perPage = 1
	}
	numPages = (count + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1, numPages
	}
	if n < 1 || n > numPages {
		return numPages, numPages
	}
	return n, numPages
}

// Offset 当前页在结果集中的起始位置
func (p *Page[T]) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p *Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page[T]) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}
func (p *Page[T]) PreviousNumber() int { return p.Number - 1 }
func (p *Page[T]) NextNumber() int     { return p.Number + 1 }

// Len 模板里 len 取不到泛型字段时使用
func (p *Page[T]) Len() int { return len(p.Items) }

// NewPage 由总数和原始页码计算分页位置，Items 由调用方按 Offset/PerPage 填充
func NewPage[T any](raw string, count, perPage int) *Page[T] {
	number, numPages := ResolvePage(raw, count, perPage)
	return &Page[T]{
		Number:   number,
		NumPages: numPages,
		Count:    count,
		PerPage:  perPage,
	}
}
