// Package harness runs scripted masked-priming sessions for conformance tests.
//
// A scenario drives the real Driver and Scheduler against a fake display and
// scripted input, then checks the recorded rows against expect clauses and,
// optionally, a golden result table.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	subject_id: subj-001
//	seed: 7
//	key_assignment: { cat: f, dog: j }
//	settings:
//	  timing: { mask_count: 2 }
//	trials:
//	  - { image: stimuli/cat/prac/prac00000.png, category: Cat,
//	      trial_type: Practice Trial, stimulus_id: Cat00000, trial: 0 }
//	design: { practice: 1, main: 1 }
//	responses:
//	  - { trial: 1, response: Cat, offset: 0.3 }
//	expect:
//	  - { trial: 0, missing: true }
//	  - { trial: 1, response: Cat, rt: 300 }
//
// Exactly one of trials and design is given. Trials with a number of zero or
// less form the practice block.
//
// # Deterministic Testing
//
// The display advances a manual clock by one refresh interval per frame, so
// stimulus onset and key offsets line up with frame counts. Every random
// draw (keys, fixation, masks, design) comes from PCG streams derived from
// the scenario seed. Results are written through an in-memory SQLite store
// and read back, so the persisted rows are what get checked.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/practice_then_main.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
