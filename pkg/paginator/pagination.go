package paginator

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

type Paginate struct {
	From, Size, Page int
}

func New(c *gin.Context) Paginate {
	sizeStr := c.DefaultQuery("page_size", strconv.Itoa(DefaultSize))
	pageStr := c.DefaultQuery("page", "1")

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page <= 0 {
		page = 1
	}

	from := math.MaxInt
	if page-1 <= math.MaxInt/size {
		from = (page - 1) * size
	}

	return Paginate{
		From: from,
		Size: size,
		Page: page,
	}
}

// Window returns the [start, end) bounds of the page within total items.
func (p Paginate) Window(total int) (int, int) {
	start := min(max(p.From, 0), total)
	end := total
	if p.Size >= 0 && p.Size < total-start {
		end = start + p.Size
	}
	return start, end
}
