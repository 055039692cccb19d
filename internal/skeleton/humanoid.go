package skeleton

// HumanoidName is the name of the built-in humanoid skeleton.
const HumanoidName = "humanoid"

var sideMirror = Vec{0, 1, 0}

// HumanoidDefinition returns the built-in humanoid: a pelvis root with a
// spine, neck and head, and mirrored legs and arms.
func HumanoidDefinition() Definition {
	return Definition{
		Name: HumanoidName,
		Bones: []BoneDef{
			{Name: "Pelvis", Tail: Vec{0, 0, 1}, Size: Vec{6.5, 13, 17.6},
				Low: Vec{-180, -89, -180}, High: Vec{180, 89, 180}, Direction: Vec{1, 0, 0}},
			{Name: "Stomach", Parent: "Pelvis", Offset: Vec{0, 0, 1}, Tail: Vec{0, 0, 1}, Size: Vec{6.5, 13, 17.6},
				Low: Vec{-10, -70, -10}, High: Vec{10, 5, 10}, Direction: Vec{1, 0, 0}},
			{Name: "Chest", Parent: "Stomach", Offset: Vec{0, 0, 1}, Tail: Vec{0, 0, 1}, Size: Vec{6.5, 13, 17.6},
				Low: Vec{-10, -70, -10}, High: Vec{10, 10, 10}, Direction: Vec{1, 0, 0}},
			{Name: "Neck", Parent: "Chest", Offset: Vec{0, 0, 1}, Tail: Vec{0, 0, 1}, Size: Vec{3, 3, 15},
				Low: Vec{0, -70, 0}, High: Vec{0, 35, 0}},
			{Name: "Head", Parent: "Neck", Offset: Vec{0, 0, 1}, Size: Vec{15, 15, 20},
				Low: Vec{-30, -30, -80}, High: Vec{30, 10, 80}, Direction: Vec{1, 0, 0}},

			{Name: "Upper Leg", Parent: "Pelvis", Offset: Vec{0, 0.5, 0}, Tail: Vec{0, 0, -1}, Size: Vec{6.5, 6.5, 46},
				Low: Vec{-70, -20, -90}, High: Vec{30, 130, 90}, Direction: Vec{1, 0, 0}, Mirror: sideMirror},
			{Name: "Lower Leg", Parent: "Upper Leg", Offset: Vec{0, 0, -1}, Tail: Vec{0, 0, -1}, Size: Vec{6.49, 6.49, 45},
				Low: Vec{0, -165, 0}, High: Vec{0, 0, 0}, Direction: Vec{1, 0, 0}},
			{Name: "Foot", Parent: "Lower Leg", Offset: Vec{0, 0, -1.175}, Tail: Vec{15.5 / 22.0, 0, 0}, Size: Vec{22, 8, 3},
				Low: Vec{-25, -70, -5}, High: Vec{25, 45, 5}, Direction: Vec{0, 0, 1}},

			{Name: "Upper Arm", Parent: "Chest", Offset: Vec{0, 0.85, 1}, Tail: Vec{0, 1, 0}, Size: Vec{4.5, 32, 4.5},
				Low: Vec{-65, -80, -45}, High: Vec{110, 80, 110}, Direction: Vec{1, 0, 0}, Mirror: sideMirror},
			{Name: "Lower Arm", Parent: "Upper Arm", Offset: Vec{0, 1, 0}, Tail: Vec{0, 1, 0}, Size: Vec{4.49, 28, 4.49},
				Low: Vec{0, 0, 0}, High: Vec{0, 0, 165}, Direction: Vec{0, 0, 1}},
			{Name: "Hand", Parent: "Lower Arm", Offset: Vec{0, 1, 0}, Tail: Vec{0, 1, 0}, Size: Vec{3.5, 15, 1.5},
				Low: Vec{-70, -80, -35}, High: Vec{90, 90, 35}, Direction: Vec{0, 0, -1}},
		},
	}
}

// Humanoid builds the built-in humanoid skeleton.
func Humanoid() *Skeleton {
	s, err := Build(HumanoidDefinition())
	if err != nil {
		panic(err)
	}
	return s
}
