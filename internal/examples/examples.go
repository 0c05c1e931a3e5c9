// Package examples ships the built-in example programs surfaced in the
// editor's examples browser. The catalog is static and read-only.
package examples

import (
	"fmt"
	"sort"

	"hubportal/internal/services"
)

// Example is one ready-to-run program from the built-in catalog.
type Example struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Code        string `json:"code"`
}

// List returns the full catalog ordered by category then name.
func List() []Example {
	out := make([]Example, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Get fetches one example by ID.
func Get(id string) (Example, error) {
	for _, example := range catalog {
		if example.ID == id {
			return example, nil
		}
	}
	return Example{}, services.Wrap(services.ErrNotFound, "examples", "get", fmt.Sprintf("example %s not found", id), nil)
}

var catalog = []Example{
	{
		ID:          "hello-hub",
		Name:        "Hello Hub",
		Description: "Print a greeting to the terminal and beep.",
		Category:    "basics",
		Code: `from pybricks.hubs import PrimeHub

hub = PrimeHub()
print("Hello from the hub!")
hub.speaker.beep()
`,
	},
	{
		ID:          "status-light",
		Name:        "Status Light Colors",
		Description: "Cycle the hub status light through a few colors.",
		Category:    "basics",
		Code: `from pybricks.hubs import PrimeHub
from pybricks.parameters import Color
from pybricks.tools import wait

hub = PrimeHub()
for color in (Color.RED, Color.GREEN, Color.BLUE):
    hub.light.on(color)
    wait(500)
hub.light.off()
`,
	},
	{
		ID:          "display-heart",
		Name:        "Heart on the Display",
		Description: "Draw a heart icon on the 5x5 light matrix.",
		Category:    "display",
		Code: `from pybricks.hubs import PrimeHub
from pybricks.parameters import Icon
from pybricks.tools import wait

hub = PrimeHub()
hub.display.icon(Icon.HEART)
wait(2000)
`,
	},
	{
		ID:          "motor-basics",
		Name:        "Motor Basics",
		Description: "Spin a motor on port A forward and back.",
		Category:    "motors",
		Code: `from pybricks.pupdevices import Motor
from pybricks.parameters import Port
from pybricks.tools import wait

motor = Motor(Port.A)
motor.run_angle(500, 360)
wait(500)
motor.run_angle(500, -360)
`,
	},
	{
		ID:          "drive-square",
		Name:        "Drive in a Square",
		Description: "Use two motors as a drive base and trace a square.",
		Category:    "motors",
		Code: `from pybricks.pupdevices import Motor
from pybricks.robotics import DriveBase
from pybricks.parameters import Port, Direction

left = Motor(Port.A, Direction.COUNTERCLOCKWISE)
right = Motor(Port.B)
robot = DriveBase(left, right, wheel_diameter=56, axle_track=114)

for _ in range(4):
    robot.straight(200)
    robot.turn(90)
`,
	},
	{
		ID:          "button-events",
		Name:        "Button Events",
		Description: "React to hub button presses.",
		Category:    "sensors",
		Code: `from pybricks.hubs import PrimeHub
from pybricks.parameters import Button
from pybricks.tools import wait

hub = PrimeHub()
print("Press the left or right button (center exits).")
while True:
    pressed = hub.buttons.pressed()
    if Button.LEFT in pressed:
        print("left")
    elif Button.RIGHT in pressed:
        print("right")
    elif Button.CENTER in pressed:
        break
    wait(50)
`,
	},
	{
		ID:          "distance-stop",
		Name:        "Stop at an Obstacle",
		Description: "Drive forward until the ultrasonic sensor sees something close.",
		Category:    "sensors",
		Code: `from pybricks.pupdevices import Motor, UltrasonicSensor
from pybricks.robotics import DriveBase
from pybricks.parameters import Port, Direction

left = Motor(Port.A, Direction.COUNTERCLOCKWISE)
right = Motor(Port.B)
eyes = UltrasonicSensor(Port.C)
robot = DriveBase(left, right, wheel_diameter=56, axle_track=114)

robot.drive(150, 0)
while eyes.distance() > 120:
    pass
robot.stop()
`,
	},
}
