// seed_decision.go is a standalone script that builds a decision through the
// AHP API from a YAML description and prints the resulting ranking.
//
// Usage:
//
//	go run scripts/seed_decision.go -file car.yaml -api http://localhost:8700 -client seed
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

type nodeDef struct {
	Name     string    `yaml:"name"`
	Children []nodeDef `yaml:"children"`
}

type cell struct {
	Row   int     `yaml:"row" json:"row"`
	Col   int     `yaml:"col" json:"col"`
	Value float64 `yaml:"value" json:"value"`
}

type seedFile struct {
	Title        string    `yaml:"title"`
	Goal         string    `yaml:"goal"`
	Criteria     []nodeDef `yaml:"criteria"`
	Alternatives []string  `yaml:"alternatives"`
	// Judgments are keyed by the name of the group's parent node.
	Judgments map[string][]cell `yaml:"judgments"`
}

// Used when no file is given.
const carExample = `
title: Buy a car
goal: Best car
criteria:
  - name: Cost
  - name: Comfort
    children:
      - name: Space
      - name: Noise
  - name: Style
alternatives: [Sedan, Hatchback, SUV]
judgments:
  Best car:
    - {row: 0, col: 1, value: 3}
    - {row: 0, col: 2, value: 5}
    - {row: 1, col: 2, value: 2}
  Comfort:
    - {row: 0, col: 1, value: 2}
  Cost:
    - {row: 0, col: 1, value: 0.5}
    - {row: 0, col: 2, value: 3}
    - {row: 1, col: 2, value: 5}
  Space:
    - {row: 0, col: 1, value: 2}
    - {row: 0, col: 2, value: 0.25}
    - {row: 1, col: 2, value: 0.2}
  Noise:
    - {row: 0, col: 1, value: 3}
    - {row: 0, col: 2, value: 2}
    - {row: 1, col: 2, value: 0.5}
  Style:
    - {row: 0, col: 1, value: 1}
    - {row: 0, col: 2, value: 0.5}
    - {row: 1, col: 2, value: 0.5}
`

type apiClient struct {
	base   string
	client string
	http   *http.Client
}

func (c *apiClient) call(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", c.client)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func main() {
	file := flag.String("file", "", "YAML decision description (defaults to the car example)")
	apiURL := flag.String("api", "http://localhost:8700", "AHP API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "print the parsed decision without posting")
	flag.Parse()

	raw := []byte(carExample)
	if *file != "" {
		var err error
		if raw, err = os.ReadFile(*file); err != nil {
			log.Fatalf("read %s: %v", *file, err)
		}
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("parse seed: %v", err)
	}

	if *dryRun {
		out, _ := yaml.Marshal(seed)
		fmt.Print(string(out))
		return
	}

	c := &apiClient{base: *apiURL + "/api/v1", client: *clientID, http: &http.Client{}}

	var created struct {
		ID   string `json:"id"`
		Tree struct {
			ID string `json:"id"`
		} `json:"tree"`
	}
	if err := c.call("POST", "/decisions", map[string]string{"title": seed.Title, "goal": seed.Goal}, &created); err != nil {
		log.Fatalf("create decision: %v", err)
	}
	log.Printf("created decision %s", created.ID)

	var addAll func(parentID string, defs []nodeDef)
	addAll = func(parentID string, defs []nodeDef) {
		if len(defs) == 0 {
			return
		}
		names := make([]string, len(defs))
		for i, d := range defs {
			names[i] = d.Name
		}
		var added struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		}
		path := fmt.Sprintf("/decisions/%s/nodes/%s/children", created.ID, parentID)
		if err := c.call("POST", path, map[string][]string{"names": names}, &added); err != nil {
			log.Fatalf("add children: %v", err)
		}
		for i, d := range defs {
			addAll(added.Nodes[i].ID, d.Children)
		}
	}
	addAll(created.Tree.ID, seed.Criteria)

	if err := c.call("POST", "/decisions/"+created.ID+"/finalize", map[string][]string{"alternatives": seed.Alternatives}, nil); err != nil {
		log.Fatalf("finalize: %v", err)
	}

	var groups []struct {
		Key struct {
			Level    int    `json:"level"`
			ParentID string `json:"parent_id"`
		} `json:"key"`
		Parent string `json:"parent"`
	}
	if err := c.call("GET", "/decisions/"+created.ID+"/groups", nil, &groups); err != nil {
		log.Fatalf("list groups: %v", err)
	}
	judged, skipped := 0, 0
	for _, g := range groups {
		cells, ok := seed.Judgments[g.Parent]
		if !ok {
			log.Printf("no judgments for group under %q", g.Parent)
			skipped++
			continue
		}
		path := fmt.Sprintf("/decisions/%s/groups/%d/%s/judgments", created.ID, g.Key.Level, g.Key.ParentID)
		var resp struct {
			Group struct {
				Consistency *struct {
					Ratio      float64 `json:"consistency_ratio"`
					Acceptable bool    `json:"acceptable"`
				} `json:"consistency"`
			} `json:"group"`
		}
		if err := c.call("PUT", path, map[string][]cell{"judgments": cells}, &resp); err != nil {
			log.Printf("skip %q: %v", g.Parent, err)
			skipped++
			continue
		}
		if cr := resp.Group.Consistency; cr != nil && !cr.Acceptable {
			log.Printf("group under %q is inconsistent (CR %.3f)", g.Parent, cr.Ratio)
		}
		judged++
	}
	log.Printf("judged %d groups, %d skipped", judged, skipped)

	var ranking struct {
		Alternatives []struct {
			Rank  int     `json:"rank"`
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"alternatives"`
		Frontier []struct {
			Name string `json:"name"`
		} `json:"frontier"`
	}
	if err := c.call("GET", "/decisions/"+created.ID+"/ranking", nil, &ranking); err != nil {
		log.Fatalf("ranking: %v", err)
	}
	for _, a := range ranking.Alternatives {
		fmt.Printf("%d. %-12s %.3f\n", a.Rank, a.Name, a.Score)
	}
	frontier := make([]string, len(ranking.Frontier))
	for i, f := range ranking.Frontier {
		frontier[i] = f.Name
	}
	fmt.Printf("pareto frontier: %v\n", frontier)
}
