package routing

import (
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/util"
)

func reversePath(p da.Path) []string {
	return util.ReverseG([]string(p))
}
