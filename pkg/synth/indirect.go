package synth

import "github.com/blimu-dev/schema-gen/pkg/model"

const (
	white = iota
	gray
	black
)

// markIndirect finds records that contain themselves by value through
// required fields and flags the back-edge field of each such cycle. Optional
// fields, sequences, maps and union variants already add a level of
// indirection and never need it.
func markIndirect(decls []model.Decl) {
	color := map[*model.Record]int{}
	var visit func(r *model.Record)
	visit = func(r *model.Record) {
		color[r] = gray
		for _, f := range r.Fields {
			if !f.Required {
				continue
			}
			target, ok := f.Type.Declared().(*model.Record)
			if !ok {
				continue
			}
			switch color[target] {
			case gray:
				f.Indirect = true
			case white:
				visit(target)
			}
		}
		color[r] = black
	}
	for _, d := range decls {
		if r, ok := d.(*model.Record); ok && color[r] == white {
			visit(r)
		}
	}
}
