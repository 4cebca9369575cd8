package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityBitsDisjoint(t *testing.T) {
	var seen RecipientSet
	for _, id := range Identities() {
		require.True(t, id.IsValid())
		require.Zero(t, uint8(id)&(uint8(id)-1), "%s must be a power of two", id)
		require.False(t, seen.Contains(id))
		seen = seen.Add(id)
	}
	require.Equal(t, All, seen)
	require.False(t, None.IsValid())
}

func TestFromOrdinal(t *testing.T) {
	require.Equal(t, JZ, FromOrdinal(1))
	require.Equal(t, RH, FromOrdinal(2))
	require.Equal(t, PL, FromOrdinal(5))
	for _, n := range []int{-1, 0, 6, 100} {
		require.Equal(t, None, FromOrdinal(n))
	}
}

func TestBroadcastMinusSelf(t *testing.T) {
	for _, me := range Identities() {
		set := Broadcast(me)
		require.False(t, set.Contains(me))
		for _, other := range Identities() {
			if other != me {
				require.True(t, set.Contains(other))
			}
		}
	}
}

func TestRecipientSetAlgebra(t *testing.T) {
	s := RecipientSet(JZ).Add(WM)
	require.True(t, s.Contains(JZ))
	require.False(t, s.Contains(RH))
	require.Equal(t, RecipientSet(WM), s.Remove(JZ))
	require.Equal(t, RecipientSet(JZ).Add(WM).Add(EH), s.Union(RecipientSet(EH)))
	require.Equal(t, RecipientSet(JZ), s.Diff(RecipientSet(WM)))
	require.True(t, RecipientSet(0).IsEmpty())
	require.Equal(t, []Identity{JZ, WM}, s.Members())
}

func TestNames(t *testing.T) {
	require.Equal(t, "RH", RH.String())
	require.Equal(t, "none", None.String())
	require.Equal(t, "unknown", Identity(0x20).String())
	require.Equal(t, "JZ,WM", RecipientSet(JZ).Add(WM).String())
	require.Equal(t, "nobody", RecipientSet(0).String())
}

func TestIdentityByName(t *testing.T) {
	id, ok := IdentityByName("rh")
	require.True(t, ok)
	require.Equal(t, RH, id)
	_, ok = IdentityByName("none")
	require.False(t, ok)
	_, ok = IdentityByName("XX")
	require.False(t, ok)
}

func TestDevices(t *testing.T) {
	require.Equal(t, "uno", Uno.String())
	require.Equal(t, "mega", Mega.String())
	require.False(t, Device(9).IsValid())

	dev, ok := DeviceByName("mega")
	require.True(t, ok)
	require.Equal(t, Mega, dev)
	_, ok = DeviceByName("nano")
	require.False(t, ok)
}
