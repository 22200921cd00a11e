package hazard_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/kolkov/memhazard/hazard"
)

// The guarded counter never loses an update: 2 actors performing 1000
// increments each always land on exactly 2000.
func ExampleRun() {
	report, err := hazard.Run(hazard.Config{
		Demo:       hazard.CounterDemo,
		Variant:    hazard.Guarded,
		Trials:     1,
		Actors:     2,
		Increments: 1000,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(report.FinalValues[0])
	// Output: 2000
}

// Invalid configurations are rejected before any actor is spawned.
func ExampleRun_configurationError() {
	_, err := hazard.Run(hazard.Config{
		Demo:    hazard.CounterDemo,
		Variant: hazard.Guarded,
		Trials:  0,
	})

	var ce *hazard.ConfigurationError
	if errors.As(err, &ce) {
		fmt.Println(ce.Field)
	}
	// Output: trials
}
