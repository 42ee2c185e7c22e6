package scaffold

import (
	"bytes"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/devspell/cli/internal/templates"
	"github.com/devspell/cli/pkg/weights"
)

const manifestsPath = "k8s/manifests.yaml"

// kubernetesFiles renders a Dockerfile and one multi-document manifest
// ordered for a single apply.
func kubernetesFiles(data templates.Data) ([]templates.File, error) {
	dockerfile, err := templates.RenderDeploy("Dockerfile", data)
	if err != nil {
		return nil, err
	}

	objs := kubernetesObjects(data)
	weights.Sort(objs)

	var buf bytes.Buffer
	for i, obj := range objs {
		out, err := yaml.Marshal(obj.Object)
		if err != nil {
			return nil, fmt.Errorf("encoding %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(out)
	}

	return []templates.File{
		{Path: "Dockerfile", Content: dockerfile},
		{Path: manifestsPath, Content: buf.String()},
	}, nil
}

func kubernetesObjects(data templates.Data) []*unstructured.Unstructured {
	name := kubeName(data.Slug)
	port := int64(data.AppPort())
	labels := map[string]any{"app.kubernetes.io/name": name}

	env := []any{}
	objs := []*unstructured.Unstructured{
		object("v1", "ConfigMap", name+"-config", labels, map[string]any{
			"data": map[string]any{
				"NODE_ENV": "production",
				"PORT":     fmt.Sprint(port),
			},
		}),
	}
	envFrom := []any{map[string]any{"configMapRef": map[string]any{"name": name + "-config"}}}

	if data.HasAuth || data.HasDatabase {
		secret := map[string]any{}
		if data.HasAuth {
			secret["JWT_SECRET"] = "change-me"
			secret["JWT_EXPIRATION"] = "24h"
		}
		if data.HasDatabase {
			secret["DB_PASSWORD"] = "change-me"
		}
		objs = append(objs, object("v1", "Secret", name+"-secrets", labels, map[string]any{
			"type":       "Opaque",
			"stringData": secret,
		}))
		envFrom = append(envFrom, map[string]any{"secretRef": map[string]any{"name": name + "-secrets"}})
	}

	if db, ok := databaseServices[data.Database]; ok {
		dbName := name + "-db"
		dbPort := int64(data.DatabasePort())
		dbLabels := map[string]any{"app.kubernetes.io/name": dbName}

		dbEnv := []any{}
		for _, k := range sortedKeys(db.env(data.Slug)) {
			dbEnv = append(dbEnv, map[string]any{"name": k, "value": db.env(data.Slug)[k]})
		}

		objs = append(objs,
			object("apps/v1", "StatefulSet", dbName, dbLabels, map[string]any{
				"spec": map[string]any{
					"serviceName": dbName,
					"replicas":    int64(1),
					"selector":    map[string]any{"matchLabels": dbLabels},
					"template": map[string]any{
						"metadata": map[string]any{"labels": dbLabels},
						"spec": map[string]any{
							"containers": []any{map[string]any{
								"name":  "db",
								"image": db.image,
								"ports": []any{map[string]any{"containerPort": dbPort}},
								"env":   dbEnv,
								"volumeMounts": []any{map[string]any{
									"name":      "data",
									"mountPath": db.dataDir,
								}},
							}},
						},
					},
					"volumeClaimTemplates": []any{map[string]any{
						"metadata": map[string]any{"name": "data"},
						"spec": map[string]any{
							"accessModes": []any{"ReadWriteOnce"},
							"resources":   map[string]any{"requests": map[string]any{"storage": "1Gi"}},
						},
					}},
				},
			}),
			service(dbName, dbLabels, dbPort),
		)
		env = append(env,
			map[string]any{"name": "DB_HOST", "value": dbName},
			map[string]any{"name": "DB_PORT", "value": fmt.Sprint(dbPort)},
		)
	}

	objs = append(objs,
		object("apps/v1", "Deployment", name, labels, map[string]any{
			"spec": map[string]any{
				"replicas": int64(1),
				"selector": map[string]any{"matchLabels": labels},
				"template": map[string]any{
					"metadata": map[string]any{"labels": labels},
					"spec": map[string]any{
						"containers": []any{map[string]any{
							"name":    "app",
							"image":   name + ":latest",
							"ports":   []any{map[string]any{"containerPort": port}},
							"envFrom": envFrom,
							"env":     env,
						}},
					},
				},
			},
		}),
		service(name, labels, port),
	)
	return objs
}

func object(apiVersion, kind, name string, labels map[string]any, body map[string]any) *unstructured.Unstructured {
	obj := map[string]any{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata": map[string]any{
			"name":   name,
			"labels": labels,
		},
	}
	for k, v := range body {
		obj[k] = v
	}
	return &unstructured.Unstructured{Object: obj}
}

func service(name string, selector map[string]any, port int64) *unstructured.Unstructured {
	return object("v1", "Service", name, selector, map[string]any{
		"spec": map[string]any{
			"selector": selector,
			"ports": []any{map[string]any{
				"port":       port,
				"targetPort": port,
			}},
		},
	})
}

// kubeName converts a slug into a DNS-1123 label.
func kubeName(slug string) string {
	out := []byte(slug)
	for i, c := range out {
		if c == '_' {
			out[i] = '-'
		}
	}
	if len(out) > 63 {
		out = out[:63]
	}
	return string(bytes.Trim(out, "-"))
}
