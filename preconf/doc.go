// Package preconf pairs the transform engine with wire formats.
//
// Each Format converts between interchange values and bytes, keeping the key order
// of interchange maps in both directions. Marshal and Unmarshal run the engine on
// top, so records go straight to bytes and back:
//
//	data, err := preconf.ToJSON(person, transform.WithRename(casing.Camel))
//	person, err = preconf.FromJSON[Person](data, transform.WithRename(casing.Camel))
package preconf
