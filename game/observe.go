package game

import (
	"log/slog"

	"github.com/pthm-cable/beans/observer"
)

// Frame captures the public state of the world at the current tick.
func (g *Game) Frame() observer.FrameMsg {
	frame := observer.NewFrame(g.tick)
	frame.Food = g.food.Count()

	g.beans = g.pop.Beans(g.beans[:0])
	for _, e := range g.beans {
		b := g.pop.ActiveBean(e)
		if b == nil {
			continue
		}
		pos := g.pop.PosMap.Get(e)
		body := g.pop.BodyMap.Get(e)
		frame.Beans = append(frame.Beans, observer.BeanView{
			ID:       b.ID,
			X:        pos.X,
			Y:        pos.Y,
			Radius:   body.Radius,
			Facing:   b.FacingAngle,
			Satiety:  max(b.Satiety, 0),
			State:    b.State.String(),
			Role:     b.Role.String(),
			Adult:    b.IsAdult,
			Hoard:    uint32(b.Hoard),
			Carrying: b.Carrying,
			Color:    [3]uint8{b.Color.R, b.Color.G, b.Color.B},
		})
	}

	for _, h := range g.hoards.Hoards() {
		frame.Hoards = append(frame.Hoards, observer.HoardView{
			ID:         uint32(h.ID),
			X:          h.X,
			Y:          h.Y,
			Radius:     h.Radius,
			Deposits:   h.Deposits,
			TownCenter: h.TownCenter != nil,
		})
	}

	gestation := g.cfg.Derived.GestationMs
	g.cocoons = g.pop.Cocoons(g.cocoons[:0])
	for _, e := range g.cocoons {
		pos := g.pop.PosMap.Get(e)
		c := g.pop.CocoonMap.Get(e)
		var progress float32
		if gestation > 0 {
			progress = min(c.Elapsed/gestation, 1)
		}
		frame.Cocoons = append(frame.Cocoons, observer.CocoonView{X: pos.X, Y: pos.Y, Progress: progress})
	}
	return frame
}

// publishFrame sends a frame every observer.every_ticks steps.
func (g *Game) publishFrame() {
	if g.publisher == nil {
		return
	}
	every := int32(max(g.cfg.Observer.EveryTicks, 1))
	if g.tick%every != 0 {
		return
	}
	if err := g.publisher.Publish(g.Frame()); err != nil {
		slog.Error("failed to publish frame", "error", err)
	}
}
