//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/internal/monitor"
	"github.com/cwbudde/algo-ecg/internal/simulator"
)

var (
	engine *simulator.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		var opts []core.DisplayOption
		if len(args) > 0 && args[0].Type() == js.TypeObject {
			d := args[0]
			opts = append(opts,
				core.WithWidth(floatField(d, "width")),
				core.WithHeight(floatField(d, "height")),
				core.WithPixelsPerSecond(floatField(d, "pixelsPerSecond")),
				core.WithPixelsPerMv(floatField(d, "pixelsPerMv")),
			)
		}
		e, err := simulator.NewEngine(core.ApplyDisplayOptions(opts...))
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("settings", export(func(args []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		b, err := json.Marshal(engine.Settings())
		if err != nil {
			return js.Null()
		}
		return string(b)
	}))

	api.Set("setSettings", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		var s simulator.Settings
		if err := json.Unmarshal([]byte(args[0].String()), &s); err != nil {
			return err.Error()
		}
		if err := engine.SetSettings(s); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("apply", export(func(args []js.Value) any {
		if engine != nil {
			engine.Apply()
		}
		return js.Null()
	}))

	api.Set("frame", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		f := engine.Advance(args[0].Float())
		out := js.Global().Get("Object").New()
		out.Set("path", monitor.PathData(f.Segments))
		out.Set("sweep", f.Sweep)
		if f.HasPointer {
			out.Set("pointerX", f.Pointer.X)
			out.Set("pointerY", f.Pointer.Y)
		}
		return out
	}))

	api.Set("nextWindow", export(func(args []js.Value) any {
		if engine == nil {
			return js.Global().Get("Float32Array").New(0)
		}
		pts := engine.NextWindow()
		arr := js.Global().Get("Float32Array").New(2 * len(pts))
		for i, p := range pts {
			arr.SetIndex(2*i, p.X)
			arr.SetIndex(2*i+1, p.Y)
		}
		return arr
	}))

	api.Set("beats", export(func(args []js.Value) any {
		if engine == nil {
			return 0
		}
		return engine.State().Beats
	}))

	js.Global().Set("AlgoECG", api)
	select {}
}

func floatField(v js.Value, name string) float64 {
	f := v.Get(name)
	if f.Type() != js.TypeNumber {
		return 0
	}
	return f.Float()
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
