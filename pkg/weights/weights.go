// Package weights orders generated Kubernetes manifests so that a single
// `kubectl apply -f` succeeds: namespaces and configuration before the
// workloads that mount them, services before ingresses.
package weights

import (
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Lower weights are applied first.
const (
	WeightNamespace   = 0
	WeightSecret      = 15
	WeightConfigMap   = 15
	WeightPVC         = 20
	WeightService     = 50
	WeightDeployment  = 100
	WeightStatefulSet = 100
	WeightIngress     = 150
	WeightHPA         = 200
	WeightDefault     = 1000
)

var gvkWeights = map[schema.GroupVersionKind]int{
	{Group: "", Version: "v1", Kind: "Namespace"}:                          WeightNamespace,
	{Group: "", Version: "v1", Kind: "Secret"}:                             WeightSecret,
	{Group: "", Version: "v1", Kind: "ConfigMap"}:                          WeightConfigMap,
	{Group: "", Version: "v1", Kind: "PersistentVolumeClaim"}:              WeightPVC,
	{Group: "", Version: "v1", Kind: "Service"}:                            WeightService,
	{Group: "apps", Version: "v1", Kind: "Deployment"}:                     WeightDeployment,
	{Group: "apps", Version: "v1", Kind: "StatefulSet"}:                    WeightStatefulSet,
	{Group: "networking.k8s.io", Version: "v1", Kind: "Ingress"}:           WeightIngress,
	{Group: "autoscaling", Version: "v2", Kind: "HorizontalPodAutoscaler"}: WeightHPA,
}

// kindWeights is consulted when group or version do not match exactly.
var kindWeights = map[string]int{
	"Namespace":               WeightNamespace,
	"Secret":                  WeightSecret,
	"ConfigMap":               WeightConfigMap,
	"PersistentVolumeClaim":   WeightPVC,
	"Service":                 WeightService,
	"Deployment":              WeightDeployment,
	"StatefulSet":             WeightStatefulSet,
	"Ingress":                 WeightIngress,
	"HorizontalPodAutoscaler": WeightHPA,
}

// GetWeight returns the weight for a GVK.
func GetWeight(gvk schema.GroupVersionKind) int {
	if weight, ok := gvkWeights[gvk]; ok {
		return weight
	}
	if weight, ok := kindWeights[gvk.Kind]; ok {
		return weight
	}
	return WeightDefault
}

// Sort orders objects by weight, then by name. Objects of equal weight and
// name keep their relative order.
func Sort(objs []*unstructured.Unstructured) {
	sort.SliceStable(objs, func(i, j int) bool {
		wi := GetWeight(objs[i].GroupVersionKind())
		wj := GetWeight(objs[j].GroupVersionKind())
		if wi != wj {
			return wi < wj
		}
		return objs[i].GetName() < objs[j].GetName()
	})
}
