package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/exp/slices"
)

const minecraftManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

type versionJson struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []versionDef `json:"versions"`
}

type versionDef struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Time        string `json:"time"`
	ReleaseTime string `json:"releaseTime"`
}

type McVersionInfo struct {
	Latest         string
	LatestSnapshot string
	// Versions holds releases only, newest first
	Versions []string
	// Snapshots holds every other version id
	Snapshots []string
}

func (m McVersionInfo) CheckValid(version string) bool {
	return slices.Contains(m.Versions, version) || slices.Contains(m.Snapshots, version)
}

func GetMinecraftVersions(ctx context.Context) (McVersionInfo, error) {
	var versionInfo McVersionInfo

	resp, err := GetWithUA(ctx, minecraftManifestURL, "application/json")
	if err != nil {
		return versionInfo, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return versionInfo, fmt.Errorf("failed to fetch minecraft versions: %s", resp.Status)
	}

	return parseMinecraftVersions(json.NewDecoder(resp.Body))
}

func parseMinecraftVersions(dec *json.Decoder) (McVersionInfo, error) {
	var info versionJson
	if err := dec.Decode(&info); err != nil {
		return McVersionInfo{}, err
	}

	versionInfo := McVersionInfo{
		Latest:         info.Latest.Release,
		LatestSnapshot: info.Latest.Snapshot,
		Versions:       make([]string, 0),
	}
	for _, v := range info.Versions {
		if v.Type == "release" {
			versionInfo.Versions = append(versionInfo.Versions, v.ID)
		} else {
			versionInfo.Snapshots = append(versionInfo.Snapshots, v.ID)
		}
	}
	return versionInfo, nil
}
