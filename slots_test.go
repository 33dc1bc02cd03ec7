package descriptors

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsDictLayout(t *testing.T) {
	g := &Graph{}
	assert.Nil(t, g.Layout())
	assert.Zero(t, g.Len())

	require.NoError(t, graphN.Set(g, 2))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 2, g.dict["_Graph__n"])

	graphEdges.MustGet(g)
	assert.Equal(t, 2, g.Len())
	assert.Contains(t, g.dict, "_Graph__edges")
}

func TestSlotsUnsetIsNotZero(t *testing.T) {
	c := &Config{}
	require.NoError(t, configDebug.Set(c, false))
	assert.True(t, configDebug.IsSetOn(c))

	v, err := configDebug.Get(c)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestSlotsFixedLayout(t *testing.T) {
	dog := &Dog{Slots: dogClass.NewSlots()}
	assert.Same(t, dogClass, dog.Layout())
	assert.True(t, dogClass.Sealed())
	assert.Len(t, dog.cells, 6)

	require.NoError(t, animalName.Set(dog, "rex"))
	require.NoError(t, dogBreed.Set(dog, "beagle"))
	assert.Equal(t, "rex", animalName.MustGet(dog))
	assert.Equal(t, "the rex", animalTitle.MustGet(dog))
	assert.Equal(t, 3, dog.Len())
	assert.Nil(t, dog.dict)

	require.NoError(t, animalTitle.Invalidate(dog))
	assert.Equal(t, 2, dog.Len())

	t.Run("ParentLayoutIsPrefix", func(t *testing.T) {
		animal := &Animal{Slots: animalClass.NewSlots()}
		require.NoError(t, animalLegs.Set(animal, 4))
		assert.Len(t, animal.cells, 3)
		assert.Equal(t, 1, animalLegs.index)
		assert.Equal(t, 3, dogBreed.index)
	})

	t.Run("ChildDescriptorOnParentLayout", func(t *testing.T) {
		animal := &Animal{Slots: animalClass.NewSlots()}
		err := dogBreed.Set(animal, "collie")
		assert.ErrorIs(t, err, ErrNoSlot)
		assert.False(t, dogBreed.IsSetOn(animal))
	})

	t.Run("ForeignDescriptor", func(t *testing.T) {
		c := &Config{Slots: graphClass.NewSlots()}
		assert.ErrorIs(t, configHost.Set(c, "localhost"), ErrNoSlot)
		_, err := configHost.Get(c)
		assert.ErrorIs(t, err, ErrNoSlot)
	})
}

func TestSlotsID(t *testing.T) {
	a, b := &Graph{}, &Graph{}
	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.Equal(t, a.ID(), a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSlotsNilOwner(t *testing.T) {
	var g *Graph
	_, err := slotsOf(g)
	assert.ErrorIs(t, err, ErrNilInstance)

	_, err = slotsOf(nil)
	assert.ErrorIs(t, err, ErrNilInstance)
}
