package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
)

// Population owns the ECS world and the component mappers of beans, food
// and cocoons. It is the arena in which entity handles are resolved: a
// handle whose entity was removed resolves to nil instead of dangling.
type Population struct {
	World *ecs.World

	beanMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Bean,
		components.Tail,
	]
	foodMapper   *ecs.Map2[components.Position, components.Food]
	cocoonMapper *ecs.Map2[components.Position, components.Cocoon]

	beanFilter   *ecs.Filter1[components.Bean]
	foodFilter   *ecs.Filter1[components.Food]
	cocoonFilter *ecs.Filter1[components.Cocoon]

	PosMap    *ecs.Map1[components.Position]
	VelMap    *ecs.Map1[components.Velocity]
	BodyMap   *ecs.Map1[components.Body]
	BeanMap   *ecs.Map1[components.Bean]
	TailMap   *ecs.Map1[components.Tail]
	FoodMap   *ecs.Map1[components.Food]
	CocoonMap *ecs.Map1[components.Cocoon]

	nextID uint32
}

// NewPopulation creates the mappers over a fresh world.
func NewPopulation() *Population {
	world := ecs.NewWorld()
	return &Population{
		World: world,
		beanMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Bean,
			components.Tail,
		](world),
		foodMapper:   ecs.NewMap2[components.Position, components.Food](world),
		cocoonMapper: ecs.NewMap2[components.Position, components.Cocoon](world),

		beanFilter:   ecs.NewFilter1[components.Bean](world),
		foodFilter:   ecs.NewFilter1[components.Food](world),
		cocoonFilter: ecs.NewFilter1[components.Cocoon](world),

		PosMap:    ecs.NewMap1[components.Position](world),
		VelMap:    ecs.NewMap1[components.Velocity](world),
		BodyMap:   ecs.NewMap1[components.Body](world),
		BeanMap:   ecs.NewMap1[components.Bean](world),
		TailMap:   ecs.NewMap1[components.Tail](world),
		FoodMap:   ecs.NewMap1[components.Food](world),
		CocoonMap: ecs.NewMap1[components.Cocoon](world),
	}
}

// NextID returns a fresh bean id.
func (p *Population) NextID() uint32 {
	p.nextID++
	return p.nextID
}

// SpawnBean creates a bean entity. The bean's ID is assigned if unset and
// its tail starts at the head.
func (p *Population) SpawnBean(x, y, radius float32, bean components.Bean) ecs.Entity {
	if bean.ID == 0 {
		bean.ID = p.NextID()
	}
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	body := components.Body{Radius: radius}
	tail := components.Tail{X: x, Y: y}
	return p.beanMapper.NewEntity(&pos, &vel, &body, &bean, &tail)
}

// SpawnFood creates a food entity.
func (p *Population) SpawnFood(x, y float32, food components.Food) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	return p.foodMapper.NewEntity(&pos, &food)
}

// SpawnCocoon creates a cocoon entity.
func (p *Population) SpawnCocoon(x, y float32, cocoon components.Cocoon) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	return p.cocoonMapper.NewEntity(&pos, &cocoon)
}

// Alive reports whether the handle refers to a live entity.
func (p *Population) Alive(e ecs.Entity) bool {
	return e != (ecs.Entity{}) && p.World.Alive(e)
}

// Bean resolves a handle to its bean component, or nil when the handle is
// empty, stale, or not a bean.
func (p *Population) Bean(e ecs.Entity) *components.Bean {
	if !p.Alive(e) || !p.BeanMap.HasAll(e) {
		return nil
	}
	return p.BeanMap.Get(e)
}

// ActiveBean is like Bean but also treats beans awaiting removal as absent.
func (p *Population) ActiveBean(e ecs.Entity) *components.Bean {
	b := p.Bean(e)
	if b == nil || b.Gone() {
		return nil
	}
	return b
}

// Remove deletes an entity. Removing a stale handle is a no-op.
func (p *Population) Remove(e ecs.Entity) {
	if p.Alive(e) {
		p.World.RemoveEntity(e)
	}
}

// Beans appends a snapshot of every bean entity to dst. Structural changes
// are not allowed during a query, so callers iterate the snapshot.
func (p *Population) Beans(dst []ecs.Entity) []ecs.Entity {
	query := p.beanFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}

// BeanCount returns the number of bean entities, including beans awaiting
// removal.
func (p *Population) BeanCount() int {
	n := 0
	query := p.beanFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Foods appends a snapshot of every food entity to dst.
func (p *Population) Foods(dst []ecs.Entity) []ecs.Entity {
	query := p.foodFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}

// Cocoons appends a snapshot of every cocoon entity to dst.
func (p *Population) Cocoons(dst []ecs.Entity) []ecs.Entity {
	query := p.cocoonFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}
